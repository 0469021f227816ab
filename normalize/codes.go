package normalize

import (
	"fmt"
	"strconv"
)

// codeMessages maps the API's numeric error codes to the wording shown to users
var codeMessages = map[int]string{
	1:  "Missing required parameter.",
	2:  "Invalid email address.",
	3:  "Subscriber already exists.",
	4:  "Subscriber not found.",
	5:  "List not found.",
	6:  "Tag not found.",
	7:  "Field not found.",
	8:  "Subscriber already subscribed.",
	9:  "Subscriber not subscribed.",
	10: "Subscriber is blacklisted.",
	11: "Invalid field value.",
	12: "Tag already assigned to subscriber.",
	13: "Tag not assigned to subscriber.",
	14: "Tag name already exists.",
	15: "Field name already exists.",
	16: "List name already exists.",
	17: "Too many requests.",
	18: "Invalid date format.",
	19: "Invalid phone number.",
	20: "Subscriber limit reached.",
	21: "Invalid API key.",
	22: "Session expired.",
	23: "Invalid login or password.",
	24: "Account suspended.",
	25: "Access denied.",
	26: "Invalid request method.",
}

// Message returns the user-facing text for an API error code
func Message(code string) string {
	if n, err := strconv.Atoi(code); err == nil {
		if msg, ok := codeMessages[n]; ok {
			return msg
		}
	}
	return fmt.Sprintf("Something went wrong. Error code: %s", code)
}

// Known reports whether code is in the table
func Known(code int) bool {
	_, ok := codeMessages[code]
	return ok
}
