package backtest

import (
	"errors"
	"fmt"

	"momentum-backtest/internal/model"
)

var (
	// ErrInsufficientSampleSize means a ranking period has too few assets to
	// fill a single bucket (k == 0).
	ErrInsufficientSampleSize = errors.New("insufficient sample size")
	// ErrAssetNotFoundInNextPeriod means a selected asset has no return in the
	// realization period.
	ErrAssetNotFoundInNextPeriod = errors.New("asset not found in next period")
	ErrNotEnoughPeriods          = errors.New("at least two periods are required")
	ErrNilPeriod                 = errors.New("period is nil")
)

// InsufficientSampleError carries the period that could not be partitioned.
type InsufficientSampleError struct {
	Period  string
	Assets  int
	Buckets int
}

func (e *InsufficientSampleError) Error() string {
	return fmt.Sprintf("period %s: %d assets cannot fill %d buckets: %s",
		e.Period, e.Assets, e.Buckets, ErrInsufficientSampleSize)
}

func (e *InsufficientSampleError) Unwrap() error { return ErrInsufficientSampleSize }

// AssetNotFoundError names the selected asset missing from the next period.
type AssetNotFoundError struct {
	AssetID string
	Group   model.Group
	Period  string
	Next    string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("period %s: %s asset %q has no return in %s: %s",
		e.Period, e.Group, e.AssetID, e.Next, ErrAssetNotFoundInNextPeriod)
}

func (e *AssetNotFoundError) Unwrap() []error {
	return []error{ErrAssetNotFoundInNextPeriod, model.ErrAssetNotFound}
}
