package reya

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoSigner is a configuration error: a private-domain request was
	// built without a registered signer.
	ErrNoSigner = errors.New("private request signing requires a registered signer")

	// ErrNoAccountID is a configuration error: an order operation could not
	// resolve a trading account id from parameters or defaults.
	ErrNoAccountID = errors.New("no trading account id configured")

	// ErrNoWalletAddress is a configuration error: a wallet-scoped request
	// was built without a wallet address.
	ErrNoWalletAddress = errors.New("no wallet address configured")
)

// Request is a fully built request: final URL, serialized body and headers.
// Dispatch belongs to the caller; no I/O happens in the builder.
type Request struct {
	URL     string
	Method  string
	Body    string
	Headers map[string]string
}

// Builder substitutes path placeholders, serializes leftover parameters and,
// for the private domain, merges the account default and the signer's extra
// fields into the payload. It never inspects or validates signatures; the
// registered signer is trusted completely.
type Builder struct {
	BaseURL   string
	Signer    Signer
	AccountID string
}

func (b *Builder) Build(ep Endpoint, domain Domain, params map[string]interface{}, body map[string]interface{}) (*Request, error) {
	path := ep.Path
	rest := make(map[string]interface{})
	for k, v := range params {
		placeholder := "{" + k + "}"
		if strings.Contains(path, placeholder) {
			path = strings.Replace(path, placeholder, fmt.Sprint(v), 1)
			continue
		}
		rest[k] = v
	}
	reqURL := strings.TrimRight(b.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	headers := make(map[string]string)

	if domain == DomainPrivate {
		if b.Signer == nil {
			return nil, errors.Wrapf(ErrNoSigner, "cannot build %s", path)
		}
		payload := body
		if payload == nil {
			payload = rest
		}
		if b.AccountID != "" {
			if _, ok := payload["accountId"]; !ok {
				if _, ok := payload["account_id"]; !ok {
					payload["accountId"] = b.AccountID
				}
			}
		}
		extra, err := b.Signer.Sign(payload, path, ep.Method)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to sign %s", path)
		}
		for k, v := range extra {
			payload[k] = v
		}
		bs, err := json.Marshal(jsonSafe(payload))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to serialize payload for %s", path)
		}
		headers["Content-Type"] = "application/json"
		return &Request{URL: reqURL, Method: ep.Method, Body: string(bs), Headers: headers}, nil
	}

	if ep.Method == "GET" {
		if len(rest) > 0 {
			reqURL += "?" + encodeQuery(rest)
		}
		return &Request{URL: reqURL, Method: ep.Method, Headers: headers}, nil
	}

	payload := body
	if payload == nil {
		payload = rest
	}
	bodyStr := ""
	if len(payload) > 0 {
		bs, err := json.Marshal(jsonSafe(payload))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to serialize payload for %s", path)
		}
		bodyStr = string(bs)
	}
	headers["Content-Type"] = "application/json"
	return &Request{URL: reqURL, Method: ep.Method, Body: bodyStr, Headers: headers}, nil
}

func encodeQuery(params map[string]interface{}) string {
	val := url.Values{}
	for k, v := range params {
		val.Add(k, fmt.Sprint(v))
	}
	return val.Encode()
}

// jsonSafe flattens non-native values (Stringers, enums) to strings so the
// payload always serializes.
func jsonSafe(m map[string]interface{}) map[string]interface{} {
	safe := make(map[string]interface{}, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil, string, bool, int, int64, float64, map[string]interface{}, []interface{}:
			safe[k] = t
		case fmt.Stringer:
			safe[k] = t.String()
		default:
			safe[k] = fmt.Sprint(t)
		}
	}
	return safe
}
