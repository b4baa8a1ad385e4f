package service

import "errors"

// Sentinel outcomes the handlers map onto response codes. Absent and
// foreign-owned resources both surface as "not found" so existence
// never leaks to non-owners.
var (
	ErrNotFound        = errors.New("file not found")
	ErrFolderNotFound  = errors.New("folder not found")
	ErrAnonymousFolder = errors.New("anonymous uploads cannot be placed in folders")
	ErrObjectMissing   = errors.New("file not found in storage")
	ErrNameTaken       = errors.New("this username is already taken")
)
