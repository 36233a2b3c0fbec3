package utils

const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	// CarrotColor matches the shop button accent of the old bot.
	CarrotColor = 0xFF9933
)

func Ptr[T any](v T) *T {
	return &v
}
