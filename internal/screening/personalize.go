package screening

import (
	"fmt"

	"github.com/aretw0/talentscout/pkg/domain"
)

const fallbackAcknowledgment = "Thanks for sharing!"

var acknowledgments = map[domain.FieldKey]func(string) string{
	domain.FieldName: func(v string) string {
		return fmt.Sprintf("Wow! %s, such a lovely name! I'm thrilled to meet you.", v)
	},
	domain.FieldEmail: func(v string) string {
		return fmt.Sprintf("Great, %s is a professional email. Thank you for sharing.", v)
	},
	domain.FieldPhone: func(string) string {
		return "Thanks for sharing your contact number. We'll reach out if needed."
	},
	domain.FieldExperience: func(v string) string {
		return fmt.Sprintf("%s years of experience.", v)
	},
	domain.FieldPosition: func(v string) string {
		return fmt.Sprintf("%s is a fantastic role to aim for!", v)
	},
	domain.FieldLocation: func(v string) string {
		return fmt.Sprintf("%s sounds like a wonderful place to be!", v)
	},
	domain.FieldTechStack: func(v string) string {
		return fmt.Sprintf("With a tech stack like %s, you're surely a strong candidate!", v)
	},
}

// Acknowledge returns the reply for a submitted field.
func Acknowledge(key domain.FieldKey, value string) string {
	if fn, ok := acknowledgments[key]; ok {
		return fn(value)
	}
	return fallbackAcknowledgment
}
