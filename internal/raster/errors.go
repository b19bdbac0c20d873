package raster

import "errors"

// Raster I/O errors. Callers wrap them into the contract sentinels.
var (
	ErrInvalidTif     = errors.New("raster: cannot open dataset")
	ErrEmptyTif       = errors.New("raster: dataset has no bands")
	ErrTifReadFailed  = errors.New("raster: band read failed")
	ErrTifWriteFailed = errors.New("raster: band write failed")
	ErrWrongShape     = errors.New("raster: grid shape does not match write options")
	ErrWrongDataType  = errors.New("raster: unsupported output datatype")
)
