package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// EncodeToken creates an opaque keyset token from the last returned entry's
// date and same-day ordinal. Listing resumes strictly after this position.
func EncodeToken(entryDate time.Time, entryNo int) string {
	tokenStr := fmt.Sprintf("%s|%d", entryDate.Format(dateFormat), entryNo)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a keyset token back into an entry date and ordinal.
func DecodeToken(token string) (time.Time, int, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	entryNo, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (ordinal parse): %w", err)
	}

	return entryDate, entryNo, nil
}
