package domain

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// User é um colaborador externo: a autenticação e o CRUD de usuários vivem
// em outro serviço. Aqui só lemos o que o fan-out de notificações precisa.
type User struct {
	ID       uuid.UUID
	FullName string
	Phone    string
	Email    string
	Country  string
	Role     Role

	// ID do aparelho no OneSignal. Nil = usuário sem push registrado.
	OneSignalPlayerID *string

	PinHash *string
}

// PinSet é a flag derivada exposta pela API de usuários
func (u *User) PinSet() bool {
	return u.PinHash != nil
}

// Actor é quem está executando a operação (extraído do token JWT).
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanDelete: dono da transação ou admin
func (a Actor) CanDelete(t *Transaction) bool {
	return a.IsAdmin() || a.ID == t.SenderID
}
