package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrEmployeeIDExists      = errors.New("employee id already assigned")
	ErrManagerAccessRequired = errors.New("manager access required")
)
