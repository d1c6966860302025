package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// decodeRequest fills dst from a JSON body or from an HTML form post. Form
// fields are matched against dst's json tags.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isFormPost(r) {
		if err := r.ParseForm(); err != nil {
			return errInvalidBody
		}
		fields := make(map[string]any, len(r.PostForm))
		for key, values := range r.PostForm {
			if len(values) == 1 {
				fields[key] = values[0]
			} else {
				fields[key] = values
			}
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return errInvalidBody
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return errInvalidBody
		}
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

// stringList accepts a JSON array, a single string, or a comma separated
// string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = nil
	for _, part := range strings.Split(one, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// flexibleID accepts a user id sent as a JSON number or a numeric string, as
// form posts always send strings.
type flexibleID int64

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = flexibleID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &n); err != nil {
		return err
	}
	*id = flexibleID(n)
	return nil
}
