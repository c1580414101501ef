package helper

import "time"

// NowFunc: sumber waktu yang bisa di-inject (tes bisa simulasi waktu).
// Semua perbandingan due/overdue/upcoming lewat sini, bukan time.Now langsung.
type NowFunc func() time.Time

func DefaultNow() time.Time { return time.Now().UTC() }
