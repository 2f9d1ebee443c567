package openai

import "github.com/fwojciec/relay"

// BuildRequestBody exports buildRequestBody for testing.
func BuildRequestBody(c *Client, req relay.Request) ([]byte, error) {
	return c.buildRequestBody(req)
}
