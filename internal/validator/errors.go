package validator

// FieldError is a user-correctable rejection. Message is shown to the requester as is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

var (
	ErrTokenMissing       = &FieldError{Field: "g-recaptcha-response", Message: "Vennligst fullfør reCAPTCHA-verifiseringen"}
	ErrVerificationFailed = &FieldError{Field: "g-recaptcha-response", Message: "reCAPTCHA-verifisering mislyktes. Vennligst prøv igjen."}
	ErrNameMissing        = &FieldError{Field: "navn", Message: "Navn mangler eller er tom"}
	ErrEmailFormat        = &FieldError{Field: "epost", Message: "Epost har feil format"}
	ErrPhoneFormat        = &FieldError{Field: "tlf", Message: "Telefonnummer har feil format"}
	ErrDateInvalid        = &FieldError{Field: "dato", Message: "Dato har feil format eller er i fortiden"}
	ErrPurposeMissing     = &FieldError{Field: "formaal", Message: "Tekstfeltet er tomt"}
	ErrNoResource         = &FieldError{Field: "lokaler", Message: "Du må velge et lokale"}
)
