package search

import (
	"github.com/cohesivestack/valgo"
	"github.com/theapemachine/contract-search/pkg/contract"
	"github.com/theapemachine/contract-search/pkg/errors"
)

func validate(validation *valgo.Validation) error {
	if validation.Valid() {
		return nil
	}

	return errors.ErrValidation.Wrap(validation.Error())
}

func validClauseType(clauseType contract.ClauseType) error {
	if !clauseType.Valid() {
		return errors.ErrValidation.WithMessagef("unknown clause type %q", string(clauseType))
	}

	return nil
}

func (service *Service) ready() error {
	if service.exec == nil {
		return errors.NewErrMissingExecutor()
	}

	return nil
}
