package xtime

import "iter"

type LocalDateRange [2]LocalDate

func (ldr LocalDateRange) Iter() iter.Seq[LocalDate] {
	return ldr[0].Until(ldr[1])
}

func (ldr LocalDateRange) Days() int {
	return ldr[0].DaysUntil(ldr[1])
}

func (ldr LocalDateRange) Contains(d LocalDate) bool {
	return ldr[0].Compare(d) <= 0 && ldr[1].Compare(d) >= 0
}
