package models

import "errors"

var (
	// ErrNotFound: запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateAddress: ссылка с таким адресом уже существует.
	ErrDuplicateAddress = errors.New("link address already exists")
	// ErrUnknownUser: указанный user_id отсутствует (нарушение внешнего ключа).
	ErrUnknownUser = errors.New("unknown user")
	// ErrInsufficientFreeLinks: свободных ссылок меньше, чем запрошено; ничего не выдано.
	ErrInsufficientFreeLinks = errors.New("insufficient free links")
	// ErrUnauthorized: у вызывающего нет действующей сессии.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden: роль вызывающего не даёт доступа к операции.
	ErrForbidden = errors.New("forbidden")
	// ErrExternalServiceUnavailable: внешний сервис не настроен или недоступен целиком.
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
	// ErrInvalidCredentials: неверный логин или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput: входные данные не прошли проверку.
	ErrInvalidInput = errors.New("invalid input")
)
