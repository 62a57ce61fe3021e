package repository

import "github.com/gdeapp/gde-backend/internal/domain/entity"

// GuiaRepository define el puerto de persistencia para guías y sus items.
type GuiaRepository interface {
	Create(guia *entity.Guia) error
	GetByID(id string) (*entity.Guia, error)
	GetByCodigo(codigo string) (*entity.Guia, error)
	List(estado string, limit, offset int) ([]*entity.Guia, error)
	CreateItem(item *entity.GuiaItem) error
	GetItemByID(id string) (*entity.GuiaItem, error)
	ListItems(guiaID string) ([]*entity.GuiaItem, error)
	DeleteItem(id string) error
}
