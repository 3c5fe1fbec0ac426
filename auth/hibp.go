package auth

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	hibpRangeURL  = "https://api.pwnedpasswords.com/range/"
	hibpUserAgent = "givme"
)

// BreachResult reports whether a passphrase hash suffix is in the HIBP dataset.
type BreachResult struct {
	Found bool
	Count int
}

// BreachChecker queries the HIBP range API using k-anonymity: only the first
// five hex characters of SHA1(pw) leave the machine.
type BreachChecker struct {
	client  *http.Client
	baseURL string
}

// NewBreachChecker returns a checker against the public HIBP endpoint.
func NewBreachChecker() *BreachChecker {
	return &BreachChecker{
		client:  &http.Client{Timeout: 4 * time.Second},
		baseURL: hibpRangeURL,
	}
}

// Check looks pw up. A non-nil error means the answer is unknown; the caller
// decides whether to fail open or closed.
func (c *BreachChecker) Check(ctx context.Context, pw string) (BreachResult, error) {
	var result BreachResult

	sum := sha1.Sum([]byte(pw))
	hashHex := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := hashHex[:5], hashHex[5:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+prefix, nil)
	if err != nil {
		return result, fmt.Errorf("hibp request: %w", err)
	}
	req.Header.Set("User-Agent", hibpUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("hibp query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("hibp query: unexpected status %s", resp.Status)
	}

	// Each line is "SUFFIX:COUNT".
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		lineSuffix, countStr, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok || !strings.EqualFold(lineSuffix, suffix) {
			continue
		}

		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil {
			return result, fmt.Errorf("hibp parse count: %w", err)
		}
		result.Found = true
		result.Count = count
		return result, nil
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("hibp read response: %w", err)
	}

	return result, nil
}
