package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"courtshare/internal/domain"
)

var clock = time.Now

// ViewVersions reports how fresh a view is. Epoch changes whenever versions restart from zero.
type ViewVersions interface {
	Epoch() string
	Version(view domain.View) uint64
}

// ETag formats the weak entity tag of a view version. variant separates responses of the same
// view that differ per requester, query or time.
func ETag(view domain.View, version uint64, variant string) string {
	return `W/"` + strings.ReplaceAll(view.String(), ":", "-") + "-" + strconv.FormatUint(version, 10) + "-" + variant + `"`
}

// CheckNotModified sets the ETag header for view and, when the request's If-None-Match
// already names it, writes 304 and returns true. Tags roll over every minute since listings
// change as events end.
func CheckNotModified(w http.ResponseWriter, r *http.Request, versions ViewVersions, view domain.View, requesterID string) bool {
	if versions == nil {
		return false
	}
	tag := ETag(view, versions.Version(view), variantOf(versions.Epoch(), requesterID, r.URL.RawQuery, clock()))
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "private, no-cache")
	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		if strings.TrimSpace(candidate) == tag {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

func variantOf(epoch, requesterID, query string, now time.Time) string {
	minute := strconv.FormatInt(now.Unix()/60, 10)
	sum := sha256.Sum256([]byte(epoch + "\x00" + requesterID + "\x00" + query + "\x00" + minute))
	return hex.EncodeToString(sum[:6])
}
