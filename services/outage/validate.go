package outage

import (
	"strconv"
	"strings"

	"outage-scraper/internal/scrapers/luma"
	"outage-scraper/lib/textutil"
)

const (
	FieldRegion            = "Region"
	FieldCustomersRestored = "Customers Restored"
	FieldTotalCustomers    = "Total Customers"
	FieldPercentRestored   = "% Restored"
)

type field struct {
	name    string
	value   string
	numeric func(string) string
}

func withoutCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// Validate checks every record and returns a *ValidationError for the
// first field that is empty or is not a whole number after removing
// thousands separators (and the percent sign, for the percentage).
// "12%" is valid, "12.0%" is not. Numbers must fit in an int64.
func Validate(records []luma.RegionRecord) error {
	if len(records) == 0 {
		return &ValidationError{Index: -1, Err: ErrNoRecords}
	}

	for i, r := range records {
		fields := []field{
			{name: FieldRegion, value: r.Region},
			{name: FieldCustomersRestored, value: r.CustomersRestored, numeric: withoutCommas},
			{name: FieldTotalCustomers, value: r.TotalCustomers, numeric: withoutCommas},
			{name: FieldPercentRestored, value: r.PercentRestored, numeric: textutil.StripNumber},
		}
		for _, f := range fields {
			if f.value == "" {
				return &ValidationError{
					Index:  i,
					Region: r.Region,
					Field:  f.name,
					Err:    ErrMissingField,
				}
			}
			if f.numeric == nil {
				continue
			}
			cleaned := f.numeric(f.value)
			if !textutil.IsDigits(cleaned) {
				return &ValidationError{
					Index:  i,
					Region: r.Region,
					Field:  f.name,
					Value:  f.value,
					Err:    ErrMalformedNumber,
				}
			}
			// stored as sqlite integers
			if _, err := strconv.ParseInt(cleaned, 10, 64); err != nil {
				return &ValidationError{
					Index:  i,
					Region: r.Region,
					Field:  f.name,
					Value:  f.value,
					Err:    ErrNumberTooLarge,
				}
			}
		}
	}

	return nil
}
