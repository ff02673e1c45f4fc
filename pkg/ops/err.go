package ops

import "github.com/pkg/errors"

var ErrBlacklisted = errors.New("package version is blacklisted")

func track(err error) error {
	return errors.WithStack(err)
}

func IsBlacklisted(err error) bool {
	return errors.Is(err, ErrBlacklisted)
}
