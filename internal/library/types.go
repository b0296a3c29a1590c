// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import "time"

// # Preferences

// Allowed preference values.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	ReadingModeScroll = "scroll"
	ReadingModePage   = "page"

	ImageQualityLow    = "low"
	ImageQualityMedium = "medium"
	ImageQualityHigh   = "high"

	LanguageVietnamese = "vi"
	LanguageEnglish    = "en"
)

// Preferences is the reader's singleton settings record.
type Preferences struct {
	Theme           string `json:"theme"`
	ReadingMode     string `json:"readingMode"`
	AutoNextChapter bool   `json:"autoNextChapter"`
	ImageQuality    string `json:"imageQuality"`
	Language        string `json:"language"`
}

// DefaultPreferences returns the settings used before the reader changes anything.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:           ThemeSystem,
		ReadingMode:     ReadingModeScroll,
		AutoNextChapter: true,
		ImageQuality:    ImageQualityMedium,
		Language:        LanguageVietnamese,
	}
}

// PreferencesPatch changes only the fields that are set.
type PreferencesPatch struct {
	Theme           *string `json:"theme,omitempty"`
	ReadingMode     *string `json:"readingMode,omitempty"`
	AutoNextChapter *bool   `json:"autoNextChapter,omitempty"`
	ImageQuality    *string `json:"imageQuality,omitempty"`
	Language        *string `json:"language,omitempty"`
}

// # Reading History

// HistoryItem records one chapter the reader opened.
// Identity is (ComicSlug, ChapterNumber).
type HistoryItem struct {
	ComicSlug     string    `json:"comicSlug"`
	ComicName     string    `json:"comicName"`
	ChapterNumber float64   `json:"chapterNumber"`
	ChapterName   string    `json:"chapterName"`
	ReadAt        time.Time `json:"readAt"`
	ThumbURL      string    `json:"thumbUrl"`
}

// # Favorites

// CategoryRef is the part of an API category a favorite remembers.
type CategoryRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Favorite is a followed comic. Identity is ComicSlug.
type Favorite struct {
	ComicSlug        string        `json:"comicSlug"`
	ComicID          string        `json:"comicId,omitempty"`
	ComicName        string        `json:"comicName"`
	ThumbURL         string        `json:"thumbUrl"`
	Status           string        `json:"status,omitempty"`
	Category         []CategoryRef `json:"category,omitempty"`
	UpdatedAt        time.Time     `json:"updatedAt,omitzero"`
	AddedAt          time.Time     `json:"addedAt"`
	LatestChapter    string        `json:"latestChapter,omitempty"`
	ChapterUpdatedAt time.Time     `json:"chapterUpdatedAt,omitzero"`
}

// # Bookmarks

// Bookmark pins a page inside a chapter. Identity for dedup is
// (ComicSlug, ChapterNumber, PageNumber); ID identifies it for removal.
type Bookmark struct {
	ID            string    `json:"id"`
	ComicSlug     string    `json:"comicSlug"`
	ComicName     string    `json:"comicName"`
	ChapterNumber float64   `json:"chapterNumber"`
	PageNumber    int       `json:"pageNumber"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// # Backup

// Snapshot is the export/import document.
type Snapshot struct {
	Preferences    *Preferences  `json:"preferences"`
	Favorites      []Favorite    `json:"favorites"`
	ReadingHistory []HistoryItem `json:"readingHistory"`
	Bookmarks      []Bookmark    `json:"bookmarks"`
}
