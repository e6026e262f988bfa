package usecase

import "time"

// SetClock fija el reloj del caso de uso en tests.
func SetClock(uc *CompanyUseCase, now func() time.Time) { uc.now = now }
