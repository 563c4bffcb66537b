package usecase

import "devopsgen/internal/domain/entity"

const (
	MsgMissingFields      = "Missing required fields: prompt and useCase"
	MsgMissingCredentials = "Server configuration error: provider credentials not found"
	MsgUnauthorized       = "Access denied, check permissions"
	MsgRateLimited        = "Request limit exceeded, try again later"
	MsgTimeout            = "Request timed out, please try again"
	MsgGenerationFailed   = "Failed to generate configuration, please try again"
	MsgEmptyTechStack     = "Please describe your technology stack first!"
)

// UserMessage is the one sentence shown to an end user for err. Provider
// error text never reaches it.
func UserMessage(err error) string {
	switch entity.KindOf(err) {
	case entity.KindInvalidInput:
		return MsgMissingFields
	case entity.KindMissingCredentials:
		return MsgMissingCredentials
	case entity.KindUnauthorized:
		return MsgUnauthorized
	case entity.KindRateLimited:
		return MsgRateLimited
	case entity.KindTimeout:
		return MsgTimeout
	}
	return MsgGenerationFailed
}
