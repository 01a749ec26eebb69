package deliver

import (
	"context"
	"fmt"
	"strings"
)

// StdoutDeliverer prints the summary to stdout. Useful for dry runs.
type StdoutDeliverer struct{}

func NewStdout() *StdoutDeliverer {
	return &StdoutDeliverer{}
}

func (d *StdoutDeliverer) Deliver(_ context.Context, text string) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println(text)
	fmt.Println(strings.Repeat("=", 72))
	return nil
}
