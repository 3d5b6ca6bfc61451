package widget

import "fmt"

// TotalText is the list heading.
func TotalText(total int) string {
	return fmt.Sprintf("총 %d개의 메일", total)
}

// ClassifiedText shows how many loaded messages carry a classification.
func ClassifiedText(classified, loaded int) string {
	return fmt.Sprintf("분류됨: %d/%d", classified, loaded)
}
