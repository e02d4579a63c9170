package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AccountID is an account identifier. The service sends it either as a JSON
// number or as a string; both decode to the same textual form.
type AccountID string

func (id *AccountID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch value := v.(type) {
	case json.Number:
		*id = AccountID(value.String())
	case string:
		*id = AccountID(value)
	default:
		return fmt.Errorf("unsupported account id %s", string(b))
	}

	return nil
}

func (id AccountID) String() string {
	return string(id)
}
