package service

import "fmt"

// QuarterRange returns the half-open date interval [start, end) covering
// a calendar quarter, formatted YYYY-MM-DD for the events date filter.
// Quarter boundaries are the 1st of January, April, July, and October;
// quarter 4 ends on January 1 of the following year. Years are not
// validated.
func QuarterRange(year, quarter int) (start, end string, err error) {
	if quarter < 1 || quarter > 4 {
		return "", "", fmt.Errorf("invalid quarter %d: must be 1-4", quarter)
	}

	startMonth := (quarter-1)*3 + 1
	start = fmt.Sprintf("%d-%02d-01", year, startMonth)

	endYear := year
	endMonth := startMonth + 3
	if quarter == 4 {
		endYear = year + 1
		endMonth = 1
	}
	end = fmt.Sprintf("%d-%02d-01", endYear, endMonth)

	return start, end, nil
}
