package appointment

import "errors"

// ErrNoRecipient: o usuário não tem e-mail; lembretes são pulados.
var ErrNoRecipient = errors.New("appointment: user has no email")
