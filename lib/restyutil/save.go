package restyutil

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

const savedTimeFormat = "20060102T150405Z"

// SaveResponses writes the body of every 200 response the client receives
// to `output` as "<received time>-<n><ext>", ex. "20250101T170500Z-1.html".
func SaveResponses(client *resty.Client, output Output, ext string) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		if res.StatusCode() != http.StatusOK {
			return nil
		}
		n := atomic.AddUint64(&counter, 1)
		name := fmt.Sprintf(
			"%s-%d%s",
			res.ReceivedAt().UTC().Format(savedTimeFormat), n, ext,
		)
		output.Write(name, res.Body())
		return nil
	})
}
