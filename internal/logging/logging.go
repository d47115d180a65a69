// Package logging emits one JSON object per line on stdout, matching the
// format used by the request logger middleware so all process output can be
// shipped through the same pipeline.
package logging

import (
	"encoding/json"
	"log"
	"time"
)

// Info logs an informational event with the given message and fields.
func Info(msg string, fields map[string]any) {
	write("info", msg, fields)
}

// Error logs an error event. The error is flattened into the "error" field.
func Error(msg string, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	write("error", msg, fields)
}

func write(level, msg string, fields map[string]any) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}

	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
