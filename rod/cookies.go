package rod

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/repost"
	"github.com/go-rod/rod/lib/proto"
)

// LoadCookies reads a JSON cookie file written by SaveCookies.
// Returns ENOTFOUND if the file does not exist.
func LoadCookies(path string) ([]*proto.NetworkCookieParam, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repost.Errorf(repost.ENOTFOUND, "cookie file %q not found", path)
	} else if err != nil {
		return nil, repost.WrapError(repost.EINTERNAL, err, "read cookie file %q", path)
	}

	var cookies []*proto.NetworkCookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, repost.WrapError(repost.EINVALID, err, "parse cookie file %q", path)
	}
	return proto.CookiesToParams(cookies), nil
}

// SaveCookies writes cookies to path as JSON, replacing any previous file.
func SaveCookies(path string, cookies []*proto.NetworkCookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return repost.WrapError(repost.EINTERNAL, err, "encode cookies")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return repost.WrapError(repost.EINTERNAL, err, "create cookie directory")
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return repost.WrapError(repost.EINTERNAL, err, "write cookie file %q", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return repost.WrapError(repost.EINTERNAL, err, "write cookie file %q", path)
	}
	return nil
}
