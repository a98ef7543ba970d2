package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func errMissingField(name string) error {
	return fmt.Errorf("missing %s", name)
}
