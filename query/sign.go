package query

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SignOption configures Sign and Verify. The two must be called with
// the same options, or the recomputed digest will not line up.
type SignOption func(*signConfig)

type signConfig struct {
	hash func() hash.Hash

	sigField    string
	timeField   string
	nonceField  string
	expiryField string

	timestamp bool
	nonce     bool
	expiry    time.Duration
	maxAge    time.Duration

	now func() time.Time
}

func newSignConfig(options []SignOption) *signConfig {
	cfg := &signConfig{
		hash:        sha256.New,
		sigField:    "s",
		timeField:   "t",
		nonceField:  "n",
		expiryField: "x",
		timestamp:   true,
		nonce:       true,
		now:         time.Now,
	}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

// WithHash selects the HMAC hash constructor. The default is
// crypto/sha256.New.
func WithHash(h func() hash.Hash) SignOption {
	return func(c *signConfig) {
		c.hash = h
	}
}

// WithMD5 selects HMAC-MD5, the historical digest of older signed
// queries. Prefer the default for anything new.
func WithMD5() SignOption {
	return WithHash(md5.New)
}

// WithFields renames the signature, timestamp, nonce and expiry
// parameters, which default to "s", "t", "n" and "x".
func WithFields(sig, timestamp, nonce, expiry string) SignOption {
	return func(c *signConfig) {
		c.sigField = sig
		c.timeField = timestamp
		c.nonceField = nonce
		c.expiryField = expiry
	}
}

// WithTimestamp controls whether Sign adds a timestamp parameter.
// On by default.
func WithTimestamp(enabled bool) SignOption {
	return func(c *signConfig) {
		c.timestamp = enabled
	}
}

// WithNonce controls whether Sign adds a nonce parameter. On by
// default.
func WithNonce(enabled bool) SignOption {
	return func(c *signConfig) {
		c.nonce = enabled
	}
}

// WithExpiry makes Sign add an expiry parameter the given duration in
// the future; Verify rejects the query once that moment has passed.
func WithExpiry(d time.Duration) SignOption {
	return func(c *signConfig) {
		c.expiry = d
	}
}

// WithMaxAge makes Verify reject queries whose timestamp parameter is
// older than the given duration, independently of any expiry.
func WithMaxAge(d time.Duration) SignOption {
	return func(c *signConfig) {
		c.maxAge = d
	}
}

// WithNow injects the clock used for the timestamp, expiry and age
// checks.
func WithNow(now func() time.Time) SignOption {
	return func(c *signConfig) {
		c.now = now
	}
}

// Sign appends the timestamp, nonce and expiry parameters the options
// ask for, then a signature parameter holding the hex HMAC digest of
// every other parameter in canonical form.
func (q *Query) Sign(key []byte, options ...SignOption) error {
	if len(key) == 0 {
		return errors.New("signing key must not be empty")
	}
	cfg := newSignConfig(options)
	now := cfg.now()

	if cfg.timestamp {
		q.SetString(cfg.timeField, strconv.FormatInt(now.Unix(), 10))
	}
	if cfg.nonce {
		q.SetString(cfg.nonceField, uuid.NewString())
	}
	if cfg.expiry > 0 {
		q.SetString(cfg.expiryField, strconv.FormatInt(now.Add(cfg.expiry).Unix(), 10))
	}

	q.SetString(cfg.sigField, q.digest(key, cfg))
	return nil
}

// Verify recomputes the digest over every parameter other than the
// signature and compares, in constant time, with the stored one. It
// additionally rejects a query whose expiry parameter is in the past,
// or whose timestamp parameter is older than the configured max age.
// Every failure mode is an undifferentiated false: missing or
// malformed parameters, a wrong key and a stale query are deliberately
// indistinguishable to the caller.
func (q *Query) Verify(key []byte, options ...SignOption) bool {
	if len(key) == 0 {
		return false
	}
	cfg := newSignConfig(options)

	sig, present := q.Get(cfg.sigField)
	if !present || !sig.Valid {
		return false
	}
	if !hmac.Equal([]byte(sig.String), []byte(q.digest(key, cfg))) {
		return false
	}

	now := cfg.now()
	if expiry, present := q.Get(cfg.expiryField); present {
		expiresAt, ok := unixValue(expiry)
		if !ok || now.After(expiresAt) {
			return false
		}
	}
	if cfg.maxAge > 0 {
		signedAt, ok := unixValue(q.Value(cfg.timeField))
		if !ok || now.Sub(signedAt) > cfg.maxAge {
			return false
		}
	}
	return true
}

func unixValue(value Value) (time.Time, bool) {
	if !value.Valid {
		return time.Time{}, false
	}
	seconds, err := strconv.ParseInt(value.String, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0), true
}

// digest computes the hex HMAC over the canonical form of the query:
// every parameter except the signature one, sorted, then unparsed.
// The deterministic sort is what lets Verify reproduce Sign's digest
// whatever order the parameters arrive in.
func (q *Query) digest(key []byte, cfg *signConfig) string {
	pairs := q.AllItems()
	canonical := make([]Pair, 0, len(pairs))
	for _, pair := range pairs {
		if pair.Key == cfg.sigField {
			continue
		}
		canonical = append(canonical, pair)
	}
	sort.SliceStable(canonical, func(i, j int) bool {
		return lessPair(canonical[i], canonical[j])
	})

	mac := hmac.New(cfg.hash, key)
	mac.Write([]byte(Unparse(canonical, q.options...)))
	return hex.EncodeToString(mac.Sum(nil))
}

// lessPair orders parameters by key, then value-less before valued,
// then by value.
func lessPair(a, b Pair) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	if a.Value.Valid != b.Value.Valid {
		return !a.Value.Valid
	}
	return a.Value.String < b.Value.String
}
