package config

import (
	"github.com/smarttable/smarttable/internal/config/data"
	"github.com/smarttable/smarttable/internal/logging"
)

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = logging.DefaultLevel

// NewFlags creates a new Flags instance with default values set.
func NewFlags() *data.Flags {
	itemsByPage := 0
	selection := ""
	paginate := true
	checkbox := false
	search := ""
	sort := ""
	page := 1
	remote := false
	s3 := ""
	profile := ""
	region := ""
	refreshRate := float32(0)
	headless := false
	logLevel := DefaultLogLevel
	logFile := AppLogFile

	return &data.Flags{
		ItemsByPage: &itemsByPage,
		Selection:   &selection,
		Paginate:    &paginate,
		Checkbox:    &checkbox,
		Search:      &search,
		Sort:        &sort,
		Page:        &page,
		Remote:      &remote,
		S3:          &s3,
		Profile:     &profile,
		Region:      &region,
		RefreshRate: &refreshRate,
		Headless:    &headless,
		LogLevel:    &logLevel,
		LogFile:     &logFile,
	}
}

// IsBoolSet returns true if a bool pointer is non-nil and true.
func IsBoolSet(b *bool) bool {
	return b != nil && *b
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}

// IsIntSet returns true if an int pointer is non-nil and positive.
func IsIntSet(i *int) bool {
	return i != nil && *i > 0
}
