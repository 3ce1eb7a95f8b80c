package i18n

import (
	"context"

	"golang.org/x/text/language"
)

// Message keys used across handlers, services and validation rules.
const (
	UserCreateSuccess           = "user_create_success"
	UsernameNull                = "username_null"
	UsernameSize                = "username_size"
	EmailNull                   = "email_null"
	EmailInvalid                = "email_invalid"
	EmailInUse                  = "email_inuse"
	PasswordNull                = "password_null"
	PasswordSize                = "password_size"
	PasswordPattern             = "password_pattern"
	EmailFailure                = "email_failure"
	AccountActivationSuccess    = "account_activation_success"
	AccountActivationFailure    = "account_activation_failure"
	UserNotFound                = "user_not_found"
	AuthenticationFailure       = "authentication_failure"
	InactiveAuthFailure         = "inactive_authentication_failure"
	UnauthorizedUserUpdate      = "unauthorized_user_update"
	UnauthorizedUserDelete      = "unauthorized_user_delete"
	UnauthorizedPasswordReset   = "unauthorized_password_reset"
	EmailNotInUse               = "email_not_inuse"
	PasswordResetRequestSuccess = "password_reset_request_success"
	ProfileImageUnsupported     = "profile_image_unsupported"
	ProfileImageSize            = "profile_image_size"
	InternalError               = "internal_error"
	InvalidRequestBody          = "invalid_request_body"
	ValidationFailure           = "validation_failure"
)

// translations maps message key -> language -> text.
// Adding a locale means adding a column here, not changing code.
var translations = map[string]map[string]string{
	UserCreateSuccess: {
		"en": "User created",
		"tr": "Kullanıcı oluşturuldu",
	},
	UsernameNull: {
		"en": "Username cannot be null",
		"tr": "Kullanıcı adı boş olamaz",
	},
	UsernameSize: {
		"en": "Must have min 4 and max 32 characters",
		"tr": "En az 4 en fazla 32 karakter olmalı",
	},
	EmailNull: {
		"en": "E-mail cannot be null",
		"tr": "E-Posta boş olamaz",
	},
	EmailInvalid: {
		"en": "E-mail is not valid",
		"tr": "E-Posta geçerli değil",
	},
	EmailInUse: {
		"en": "E-mail in use",
		"tr": "Bu E-Posta kullanılıyor",
	},
	PasswordNull: {
		"en": "Password cannot be null",
		"tr": "Şifre boş olamaz",
	},
	PasswordSize: {
		"en": "Password must have at least 6 characters",
		"tr": "Şifre en az 6 karakter olmalı",
	},
	PasswordPattern: {
		"en": "Password must have at least 1 uppercase, 1 lowercase letter and 1 number",
		"tr": "Şifrede en az 1 büyük, 1 küçük harf ve 1 sayı bulunmalıdır",
	},
	EmailFailure: {
		"en": "E-mail failure",
		"tr": "E-Posta gönderiminde hata oluştu",
	},
	AccountActivationSuccess: {
		"en": "Account is activated",
		"tr": "Hesap aktifleştirildi",
	},
	AccountActivationFailure: {
		"en": "This account is either active or the token is invalid",
		"tr": "Bu hesap daha önce aktifleştirilmiş olabilir ya da kod hatalı",
	},
	UserNotFound: {
		"en": "User not found",
		"tr": "Kullanıcı bulunamadı",
	},
	AuthenticationFailure: {
		"en": "Incorrect credentials",
		"tr": "Kullanıcı bilgileri hatalı",
	},
	InactiveAuthFailure: {
		"en": "Account is inactive",
		"tr": "Hesap aktif değil",
	},
	UnauthorizedUserUpdate: {
		"en": "You are not authorized to update user",
		"tr": "Bu işlem için yetkiniz yok",
	},
	UnauthorizedUserDelete: {
		"en": "You are not authorized to delete user",
		"tr": "Bu işlem için yetkiniz yok",
	},
	UnauthorizedPasswordReset: {
		"en": "You are not authorized to update your password. Please follow the password reset steps again",
		"tr": "Şifrenizi güncelleme yetkiniz yok. Lütfen şifre sıfırlama adımlarını tekrarlayın",
	},
	EmailNotInUse: {
		"en": "E-mail not found",
		"tr": "Bu E-Posta adresi kayıtlı değil",
	},
	PasswordResetRequestSuccess: {
		"en": "Check your e-mail for resetting your password",
		"tr": "Şifrenizi sıfırlamak için E-Posta adresinizi kontrol edin",
	},
	ProfileImageUnsupported: {
		"en": "Only PNG and JPG files are allowed",
		"tr": "Sadece PNG ve JPG dosyaları yükleyebilirsiniz",
	},
	ProfileImageSize: {
		"en": "Your profile image cannot be bigger than 2MB",
		"tr": "Profil resmi 2MB'dan büyük olamaz",
	},
	InternalError: {
		"en": "Unexpected error occurred",
		"tr": "Beklenmeyen bir hata oluştu",
	},
	InvalidRequestBody: {
		"en": "Invalid request body",
		"tr": "İstek gövdesi geçersiz",
	},
	ValidationFailure: {
		"en": "Validation failure",
		"tr": "Doğrulama hatası",
	},
}

// DefaultLang is the fallback for unsupported or missing Accept-Language values.
const DefaultLang = "en"

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first tag is the fallback
	language.Turkish,
})

var langNames = []string{"en", "tr"}

// Negotiate resolves an Accept-Language header to a supported language code.
func Negotiate(header string) string {
	if header == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return DefaultLang
	}
	_, idx, _ := matcher.Match(tags...)
	return langNames[idx]
}

// Translate resolves a message key for the given language.
// Unknown keys render as the key itself so a missing translation
// is visible instead of silent.
func Translate(lang, key string) string {
	msgs, ok := translations[key]
	if !ok {
		return key
	}
	if msg, ok := msgs[lang]; ok {
		return msg
	}
	return msgs[DefaultLang]
}

type contextKey struct{}

var langKey = contextKey{}

// WithLang stores the negotiated language in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey, lang)
}

// Lang retrieves the negotiated language from the context.
func Lang(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey).(string); ok {
		return lang
	}
	return DefaultLang
}
