package core

import "errors"

var (
	ErrSurfaceNotFound  = errors.New("drawing surface not found")
	ErrEmptyChart       = errors.New("chart has no data points")
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrMetricExists     = errors.New("metric already exists")
	ErrBackupNotFound   = errors.New("backup not found")
	ErrInvalidFieldType = errors.New("invalid config field type")
	ErrMissingField     = errors.New("missing config field")
	ErrLengthMismatch   = errors.New("labels and values differ in length")
	ErrInvalidValue     = errors.New("invalid config value")
)
