package domain

import "errors"

// ErrorKind names an error category of the core. The HTTP layer uses it as the error code.
type ErrorKind string

const (
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindForbidden          ErrorKind = "forbidden"
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindAlreadyJoined      ErrorKind = "already_joined"
	KindEventFull          ErrorKind = "event_full"
	KindNotJoined          ErrorKind = "not_joined"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindStorage            ErrorKind = "storage"
	KindInternal           ErrorKind = "internal"
)

var messages = map[string]map[ErrorKind]string{
	"en": {
		KindUnauthenticated:    "sign in required",
		KindForbidden:          "group admins only",
		KindValidation:         "invalid input",
		KindNotFound:           "not found",
		KindAlreadyJoined:      "you have already joined this event",
		KindEventFull:          "this event is full",
		KindNotJoined:          "you have not joined this event",
		KindInvalidCredentials: "invalid email or password",
		KindStorage:            "something went wrong, please try again",
		KindInternal:           "something went wrong, please try again",
	},
	"th": {
		KindUnauthenticated:    "ต้องเข้าสู่ระบบ",
		KindForbidden:          "เฉพาะแอดมินเท่านั้น",
		KindValidation:         "ข้อมูลไม่ถูกต้อง",
		KindNotFound:           "ไม่พบข้อมูล",
		KindAlreadyJoined:      "เข้าร่วมแล้ว",
		KindEventFull:          "เต็มแล้ว",
		KindNotJoined:          "ยังไม่ได้เข้าร่วมกิจกรรม",
		KindInvalidCredentials: "อีเมลหรือรหัสผ่านไม่ถูกต้อง",
		KindStorage:            "เกิดข้อผิดพลาด กรุณาลองใหม่",
		KindInternal:           "เกิดข้อผิดพลาด กรุณาลองใหม่",
	},
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	var storageErr *StorageError
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyJoined):
		return KindAlreadyJoined
	case errors.Is(err, ErrEventFull):
		return KindEventFull
	case errors.Is(err, ErrNotJoined):
		return KindNotJoined
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.As(err, &storageErr):
		return KindStorage
	default:
		return KindInternal
	}
}

// Message returns the default user-facing message for err in lang ("en" or "th").
// Validation errors carry their own message, which wins over the generic one.
func Message(err error, lang string) string {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	table, ok := messages[lang]
	if !ok {
		table = messages["en"]
	}
	return table[KindOf(err)]
}
