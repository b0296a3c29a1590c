// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package otruyen

// # Envelope

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the wrapper every comic API response uses.
type Envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// # Comics

// Comic status values as reported by the API.
const (
	ComicOngoing    = "ongoing"
	ComicCompleted  = "completed"
	ComicComingSoon = "coming_soon"
)

// Comic is a listing or detail item.
type Comic struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	OriginName     []string        `json:"origin_name"`
	Status         string          `json:"status"`
	ThumbURL       string          `json:"thumb_url"`
	Author         []string        `json:"author,omitempty"`
	Category       []Category      `json:"category"`
	UpdatedAt      string          `json:"updatedAt"`
	Content        string          `json:"content,omitempty"`
	Chapters       []ChapterServer `json:"chapters,omitempty"`
	ChaptersLatest []ChapterInfo   `json:"chaptersLatest,omitempty"`
	SubDocQuyen    bool            `json:"sub_docquyen,omitempty"`

	// CoverURL is ThumbURL resolved against the image CDN.
	CoverURL string `json:"cover_url,omitempty"`
}

// Category is a genre tag.
type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// ChapterServer groups the chapters hosted by one mirror.
type ChapterServer struct {
	ServerName string        `json:"server_name"`
	ServerData []ChapterInfo `json:"server_data"`
}

// ChapterInfo is a chapter reference inside a comic detail.
type ChapterInfo struct {
	Filename       string `json:"filename"`
	ChapterName    string `json:"chapter_name"`
	ChapterTitle   string `json:"chapter_title"`
	ChapterPath    string `json:"chapter_path,omitempty"`
	ChapterImage   string `json:"chapter_image,omitempty"`
	ChapterAPIData string `json:"chapter_api_data"`
}

// Chapter is the reader payload for one chapter.
type Chapter struct {
	ComicName    string         `json:"comic_name"`
	ChapterName  string         `json:"chapter_name"`
	ChapterTitle string         `json:"chapter_title"`
	ChapterPath  string         `json:"chapter_path"`
	Images       []ChapterImage `json:"images"`
	Domains      []string       `json:"domains"`
}

// ChapterImage is one page of a chapter.
type ChapterImage struct {
	Page      int    `json:"page"`
	Src       string `json:"src"`
	BackupURL string `json:"backup_url,omitempty"`
}

// # Page Metadata

// BreadCrumb is one navigation crumb.
type BreadCrumb struct {
	Name      string `json:"name"`
	Slug      string `json:"slug,omitempty"`
	IsCurrent bool   `json:"isCurrent,omitempty"`
}

// SEOOnPage is the head metadata the API ships with every page.
type SEOOnPage struct {
	OGType          string   `json:"og_type"`
	TitleHead       string   `json:"titleHead"`
	DescriptionHead string   `json:"descriptionHead"`
	OGImage         []string `json:"og_image"`
}

// Pagination is the API's pagination block. The page count is not included.
type Pagination struct {
	CurrentPage       int `json:"currentPage"`
	TotalItems        int `json:"totalItems"`
	TotalItemsPerPage int `json:"totalItemsPerPage"`
	PageRanges        int `json:"pageRanges,omitempty"`
}

// TotalPages returns ceil(TotalItems / TotalItemsPerPage).
func (p Pagination) TotalPages() int {
	if p.TotalItemsPerPage <= 0 || p.TotalItems <= 0 {
		return 0
	}
	return (p.TotalItems + p.TotalItemsPerPage - 1) / p.TotalItemsPerPage
}

// ListParams wraps the pagination block of listing pages.
type ListParams struct {
	Pagination Pagination `json:"pagination"`
}

// # Response Payloads

// ListData is the payload of listing, category and search pages.
type ListData struct {
	SEOOnPage  SEOOnPage    `json:"seoOnPage"`
	BreadCrumb []BreadCrumb `json:"breadCrumb"`
	TitlePage  string       `json:"titlePage"`
	Items      []Comic      `json:"items"`
	Params     ListParams   `json:"params"`
}

// ComicData is the payload of a comic detail page.
type ComicData struct {
	SEOOnPage  SEOOnPage    `json:"seoOnPage"`
	BreadCrumb []BreadCrumb `json:"breadCrumb"`
	Item       Comic        `json:"item"`
}

// ChapterData is the payload of a chapter page.
type ChapterData struct {
	SEOOnPage  SEOOnPage    `json:"seoOnPage"`
	BreadCrumb []BreadCrumb `json:"breadCrumb"`
	Item       Chapter      `json:"item"`
}

// HomeParams is the params block of the home feed.
type HomeParams struct {
	TypeSlug         string     `json:"type_slug"`
	FilterCategory   []string   `json:"filterCategory"`
	SortField        string     `json:"sortField"`
	Pagination       Pagination `json:"pagination"`
	ItemsUpdateInDay int        `json:"itemsUpdateInDay"`
}

// HomeData is the payload of the home feed.
type HomeData struct {
	SEOOnPage         SEOOnPage  `json:"seoOnPage"`
	Items             []Comic    `json:"items"`
	Params            HomeParams `json:"params"`
	TypeList          string     `json:"type_list"`
	AppDomainFrontend string     `json:"APP_DOMAIN_FRONTEND"`
	AppDomainCDNImage string     `json:"APP_DOMAIN_CDN_IMAGE"`
}

// CategoriesData is the payload of the category index.
type CategoriesData struct {
	Items []Category `json:"items"`
}

// HomeSections is the three home carousels fetched together.
type HomeSections struct {
	Popular   ListData `json:"popular"`
	Newest    ListData `json:"newest"`
	Completed ListData `json:"completed"`
}

// SearchParams filters a keyword search. Empty fields are omitted from the query.
type SearchParams struct {
	Query    string
	Category string
	Status   string
	Page     int
}
