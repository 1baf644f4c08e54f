package models

import "time"

type Service struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `json:"barbershop_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BarberService restringe quais serviços um barbeiro executa.
// Sem nenhuma linha para o barbeiro, ele executa todos os serviços
// ativos da barbearia.
type BarberService struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BarberID  uint `gorm:"index:idx_barber_service,unique" json:"barber_id"`
	ServiceID uint `gorm:"index:idx_barber_service,unique" json:"service_id"`

	CreatedAt time.Time `json:"created_at"`
}
