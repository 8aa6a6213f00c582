package service

const (
	dateLayout     = "01/02/2006"
	dateTimeLayout = "01/02/2006 @ 1504"
	clockLayout    = "1504"
)

// formatTimeRange joins two HHmm clock strings for display. Either side may
// be empty when the source shift carried no usable time.
func formatTimeRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return start + "-" + end
}
