package week

import "github.com/shopspring/decimal"

// Transfer moves amount hours of src's srcDay composition into dst's dstDay
// composition. Both compositions are materialized first. Source entries are
// consumed first-fit in order; each taken fraction is added to the
// same-named destination entry, or appended as a new one. Cell hours are
// not touched; callers adjust them.
//
// It returns the amount actually moved, which is less than amount only when
// the source composition runs out.
func Transfer(src, dst *Record, srcDay, dstDay Day, amount decimal.Decimal) decimal.Decimal {
	if !srcDay.Valid() || !dstDay.Valid() || (src == dst && srcDay == dstDay) {
		return decimal.Zero
	}

	parts := src.materialize(srcDay)
	dst.materialize(dstDay)

	remaining := amount
	for i := range parts {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, parts[i].Hours)
		if !take.IsPositive() {
			continue
		}
		parts[i].Hours = parts[i].Hours.Sub(take)
		remaining = remaining.Sub(take)
		dst.addPartial(dstDay, parts[i].Name, take)
	}
	return amount.Sub(remaining)
}
