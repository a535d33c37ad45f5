package handlers

import "encoding/json"

func decodeJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// mustJSON marshals broadcast payloads; the dto types marshal without error.
func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
