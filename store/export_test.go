package store

import "time"

func SetClock(s *FileStore, now func() time.Time) { s.now = now }
