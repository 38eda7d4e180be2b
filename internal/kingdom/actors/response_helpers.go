package actors

import (
	"DewanRaja/internal/shared/actor/messages"
)

func ok(result map[string]any) *messages.ActionResult {
	return messages.OK(result)
}

func fail(reason string) *messages.ActionResult {
	return messages.Fail(reason)
}
