package service

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	invvalidator "invoicefin/internal/validator"
)

// The request DTOs in this package use the gstin and ewb tags, so they are
// registered on gin's validator before any of them is bound.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := invvalidator.Register(v); err != nil {
			panic(err)
		}
	}
}
