//go:build windows

package actions

import "errors"

func mkfifo(string) error {
	return errors.New("not supported")
}
