package usecase

import (
	"context"
	"fmt"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
)

// RekeyReferencesUseCase reatribui referências de 8 dígitos globalmente
// únicas para TODAS as transações existentes, numa passada só. Um set em
// memória evita colisão dentro do próprio lote; tudo roda dentro de uma
// transação ACID para a tabela nunca ficar meio re-referenciada.
type RekeyReferencesUseCase struct {
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager
}

func NewRekeyReferences(transactionRepo gateway.TransactionRepository, txManager gateway.TransactionManager) *RekeyReferencesUseCase {
	return &RekeyReferencesUseCase{
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
	}
}

// Execute devolve quantas transações foram re-referenciadas.
func (u *RekeyReferencesUseCase) Execute(ctx context.Context) (int, error) {
	var count int

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}
		repoTx := u.transactionRepository.WithTx(transactionObject)

		transactions, err := repoTx.ListAll(contextWithTx)
		if err != nil {
			return fmt.Errorf("falha ao listar transações: %w", err)
		}

		// O set começa com as referências atuais: a constraint UNIQUE é
		// avaliada a cada UPDATE, então uma referência nova não pode
		// colidir nem com as já emitidas nem com uma linha ainda não
		// re-referenciada.
		used := make(map[string]struct{}, len(transactions)*2)
		for _, transaction := range transactions {
			used[transaction.Reference] = struct{}{}
		}

		for _, transaction := range transactions {
			reference := domain.NewReference()
			for _, taken := used[reference]; taken; _, taken = used[reference] {
				reference = domain.NewReference()
			}
			used[reference] = struct{}{}

			if err := repoTx.UpdateReference(contextWithTx, transaction.ID, reference); err != nil {
				return fmt.Errorf("falha ao atualizar referência de %s: %w", transaction.ID, err)
			}
		}

		count = len(transactions)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
