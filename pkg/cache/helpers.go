package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key joins parts with ':' the way every key in the academy cache is built,
// e.g. Key("session", id) -> "session:<id>".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

func GetJSON(cache Client, ctx context.Context, key string, v interface{}) error {
	data, err := cache.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Operation: "deserialize", Key: key, Err: errors.Join(ErrSerialization, err)}
	}
	return nil
}

func SetJSON(cache Client, ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &Error{Operation: "serialize", Key: key, Err: errors.Join(ErrSerialization, err)}
	}
	return cache.Set(ctx, key, data, ttl)
}

// IsNotFound reports whether err means the key is absent or expired.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}
