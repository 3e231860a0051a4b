// Package data provides configuration data types for the smarttable application.
package data

import (
	"github.com/smarttable/smarttable/internal/model1"
)

// Flags represents CLI command-line flags for the smarttable application.
type Flags struct {
	ItemsByPage *int     // Rows per page
	Selection   *string  // Selection mode (none, single, multiple)
	Paginate    *bool    // Enable pagination
	Checkbox    *bool    // Display a selection column
	Search      *string  // Initial global search
	Sort        *string  // Initial sort column map, prefixed with - for a second toggle
	Page        *int     // Initial page
	Remote      *bool    // Serve the dataset through the remote contract
	S3          *string  // S3 dataset URI
	Profile     *string  // AWS profile to use
	Region      *string  // AWS region to use
	RefreshRate *float32 // Remote reload interval in seconds, 0 disables
	Headless    *bool    // Print the page and exit
	LogLevel    *string  // Log level (e.g., debug, info, warn, error)
	LogFile     *string  // Path to log file
}

// Table represents the table configuration settings.
type Table struct {
	SelectionMode   model1.SelectionMode `yaml:"selectionMode"`
	GlobalSearch    bool                 `yaml:"globalSearch"`
	Checkbox        bool                 `yaml:"selectionCheckbox"`
	Pagination      *bool                `yaml:"pagination,omitempty"`
	ItemsByPage     int                  `yaml:"itemsByPage"`
	MaxSize         int                  `yaml:"maxSize"`
	SortAlgorithm   string               `yaml:"sortAlgorithm,omitempty"`
	FilterAlgorithm string               `yaml:"filterAlgorithm,omitempty"`
	Columns         []model1.ColumnSpec  `yaml:"columns,omitempty"`
}

// Remote represents remote source settings.
type Remote struct {
	Enabled     bool    `yaml:"enabled"`
	CacheTTL    string  `yaml:"cacheTTL"`
	RefreshRate float32 `yaml:"refreshRate"`
	APITimeout  string  `yaml:"apiTimeout"`
	Profile     string  `yaml:"profile,omitempty"`
	Region      string  `yaml:"region,omitempty"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// NewFlags creates a new Flags instance with all pointer fields initialized.
// All pointers are allocated but their values are not set.
func NewFlags() *Flags {
	return &Flags{
		ItemsByPage: new(int),
		Selection:   new(string),
		Paginate:    new(bool),
		Checkbox:    new(bool),
		Search:      new(string),
		Sort:        new(string),
		Page:        new(int),
		Remote:      new(bool),
		S3:          new(string),
		Profile:     new(string),
		Region:      new(string),
		RefreshRate: new(float32),
		Headless:    new(bool),
		LogLevel:    new(string),
		LogFile:     new(string),
	}
}
