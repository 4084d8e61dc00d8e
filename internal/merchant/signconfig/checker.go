// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signconfig

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPChecker issues a GET against the Sign-service URL.
type HTTPChecker struct {
	client *http.Client
}

// NewHTTPChecker returns a checker whose requests give up after timeout.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{client: &http.Client{Timeout: timeout}}
}

// Check reports success for any response below 500. Redirects are not followed.
func (checker *HTTPChecker) Check(ctx context.Context, url string) TestResult {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return TestResult{Success: false, Message: fmt.Sprintf("Invalid request: %v", err)}
	}

	client := *checker.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	response, err := client.Do(request)
	if err != nil {
		return TestResult{Success: false, Message: fmt.Sprintf("Connection failed: %v", err)}
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusInternalServerError {
		return TestResult{Success: false, Message: fmt.Sprintf("Service responded with status %d", response.StatusCode)}
	}
	return TestResult{Success: true, Message: "Connection successful"}
}
