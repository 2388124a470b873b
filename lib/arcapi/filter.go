package arcapi

import (
	"fmt"
	"strings"
)

// FilterOptions are the search criteria understood by the grants portal.
// Year, funding and field-of-research values are passed through as
// strings, the portal is the sole authority on their validity.
type FilterOptions struct {
	SearchText      string
	Scheme          string
	AdminOrg        string
	AdminOrgShort   string
	Status          string
	YearFrom        string
	YearTo          string
	FundingFrom     string
	FundingTo       string
	FellowshipsOnly string
	LiefRegister    string
	FourDigitFor    string
	TwoDigitFor     string
}

// BuildFilterQuery renders the options into the portal's filter
// mini-language. Each non-empty criterion becomes `field="value"`;
// values are quoted but not escaped, a value containing a double quote
// produces a malformed query the portal will reject.
func BuildFilterQuery(opts FilterOptions) string {
	var parts []string
	add := func(field, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf(`%s="%s"`, field, value))
		}
	}

	add("scheme", opts.Scheme)
	add("admin-org-name", opts.AdminOrg)
	add("admin-org-short-name", opts.AdminOrgShort)
	add("status", opts.Status)
	add("year-from", opts.YearFrom)
	add("year-to", opts.YearTo)
	add("funding-from", opts.FundingFrom)
	add("funding-to", opts.FundingTo)
	add("fellowships-only", opts.FellowshipsOnly)
	add("lief-register", opts.LiefRegister)
	add("four-digit-for", opts.FourDigitFor)
	add("two-digit-for", opts.TwoDigitFor)

	switch {
	case opts.SearchText != "" && len(parts) > 0:
		return fmt.Sprintf("%s => (%s)", opts.SearchText, strings.Join(parts, " AND "))
	case len(parts) > 0:
		return fmt.Sprintf("=> (%s)", strings.Join(parts, " AND "))
	default:
		return opts.SearchText
	}
}
