package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/smarttable/smarttable/internal/config/data"
	"github.com/smarttable/smarttable/internal/dao"
	"github.com/smarttable/smarttable/internal/model"
	"github.com/smarttable/smarttable/internal/model1"
)

// Default values
const (
	DefaultAPITimeout = 30 * time.Second
	DefaultCacheTTL   = dao.DefaultCacheTTL
)

// SmartTable represents the smarttable global configuration.
type SmartTable struct {
	Table  data.Table  `yaml:"table"`
	Remote data.Remote `yaml:"remote"`
	Logger data.Logger `yaml:"logger"`

	mx sync.RWMutex
}

// NewSmartTable creates a SmartTable with default settings.
func NewSmartTable() *SmartTable {
	opts := model.DefaultOptions()
	paginate := opts.IsPaginationEnabled

	return &SmartTable{
		Table: data.Table{
			SelectionMode: opts.SelectionMode,
			Pagination:    &paginate,
			ItemsByPage:   opts.ItemsByPage,
			MaxSize:       opts.MaxSize,
		},
		Remote: data.Remote{
			CacheTTL:   DefaultCacheTTL.String(),
			APITimeout: DefaultAPITimeout.String(),
		},
		Logger: data.Logger{
			Level: DefaultLogLevel,
		},
	}
}

// Validate ensures SmartTable has valid settings.
func (s *SmartTable) Validate() {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.Table.ItemsByPage < 1 {
		s.Table.ItemsByPage = model1.DefaultItemsByPage
	}
	if s.Table.MaxSize < 1 {
		s.Table.MaxSize = model.DefaultMaxSize
	}
	if s.Table.Pagination == nil {
		paginate := true
		s.Table.Pagination = &paginate
	}
	if s.Remote.CacheTTL == "" {
		s.Remote.CacheTTL = DefaultCacheTTL.String()
	}
	if s.Remote.APITimeout == "" {
		s.Remote.APITimeout = DefaultAPITimeout.String()
	}
	if s.Remote.RefreshRate < 0 {
		s.Remote.RefreshRate = 0
	}
	if s.Logger.Level == "" {
		s.Logger.Level = DefaultLogLevel
	}
}

// Override applies CLI flag overrides to the configuration.
func (s *SmartTable) Override(flags *data.Flags) error {
	if flags == nil {
		return nil
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	if IsIntSet(flags.ItemsByPage) {
		s.Table.ItemsByPage = *flags.ItemsByPage
	}
	if IsStringSet(flags.Selection) {
		mode, err := model1.ParseSelectionMode(*flags.Selection)
		if err != nil {
			return err
		}
		s.Table.SelectionMode = mode
	}
	if flags.Paginate != nil {
		paginate := *flags.Paginate
		s.Table.Pagination = &paginate
	}
	if flags.Checkbox != nil {
		s.Table.Checkbox = *flags.Checkbox
	}
	if flags.Remote != nil {
		s.Remote.Enabled = *flags.Remote
	}
	if flags.RefreshRate != nil && *flags.RefreshRate > 0 {
		s.Remote.RefreshRate = *flags.RefreshRate
	}
	if IsStringSet(flags.Profile) {
		s.Remote.Profile = *flags.Profile
	}
	if IsStringSet(flags.Region) {
		s.Remote.Region = *flags.Region
	}
	if IsStringSet(flags.LogLevel) {
		s.Logger.Level = *flags.LogLevel
	}
	if IsStringSet(flags.LogFile) {
		s.Logger.File = *flags.LogFile
	}

	return nil
}

// Options converts the table settings into engine options.
func (s *SmartTable) Options() (model.Options, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	sorter, err := model1.SorterByName(s.Table.SortAlgorithm)
	if err != nil {
		return model.Options{}, err
	}
	filterer, err := model1.FiltererByName(s.Table.FilterAlgorithm)
	if err != nil {
		return model.Options{}, err
	}

	opts := model.DefaultOptions()
	opts.SelectionMode = s.Table.SelectionMode
	opts.IsGlobalSearchActivated = s.Table.GlobalSearch
	opts.DisplaySelectionCheckbox = s.Table.Checkbox
	if s.Table.Pagination != nil {
		opts.IsPaginationEnabled = *s.Table.Pagination
	}
	opts.ItemsByPage = s.Table.ItemsByPage
	opts.MaxSize = s.Table.MaxSize
	opts.SortAlgorithm = sorter
	opts.FilterAlgorithm = filterer

	return opts, nil
}

// Columns returns the declared column specs.
func (s *SmartTable) Columns() []model1.ColumnSpec {
	s.mx.RLock()
	defer s.mx.RUnlock()

	cc := make([]model1.ColumnSpec, len(s.Table.Columns))
	copy(cc, s.Table.Columns)
	return cc
}

// GetCacheTTL returns the parsed remote page cache TTL.
func (s *SmartTable) GetCacheTTL() (time.Duration, error) {
	s.mx.RLock()
	ttl := s.Remote.CacheTTL
	s.mx.RUnlock()

	d, err := time.ParseDuration(ttl)
	if err != nil {
		return 0, fmt.Errorf("invalid cache TTL %q: %w", ttl, err)
	}

	return d, nil
}

// GetAPITimeout returns the parsed API timeout duration.
func (s *SmartTable) GetAPITimeout() (time.Duration, error) {
	s.mx.RLock()
	timeoutStr := s.Remote.APITimeout
	s.mx.RUnlock()

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid API timeout %q: %w", timeoutStr, err)
	}

	return timeout, nil
}

// GetRefreshRate returns the remote reload interval, 0 when disabled.
func (s *SmartTable) GetRefreshRate() time.Duration {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return time.Duration(float64(s.Remote.RefreshRate) * float64(time.Second))
}
