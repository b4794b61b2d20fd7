package service

import (
	"fmt"

	"checkout-service/internal/models"
)

// PaymentProvider — контракт платёжного провайдера. CanCheckout/CanOrder
// возвращают список человеко-читаемых причин отказа; пустой список — проверка
// пройдена.
type PaymentProvider interface {
	Name() string
	CanCheckout(o *models.Order) []string
	CanOrder(o *models.Order) []string
}

// ProviderRegistry хранит провайдеров, зарегистрированных на старте.
// Сравнение по стабильному имени, не по структурному равенству.
type ProviderRegistry struct {
	providers []PaymentProvider
}

func NewProviderRegistry(providers ...PaymentProvider) *ProviderRegistry {
	return &ProviderRegistry{providers: providers}
}

func (r *ProviderRegistry) Register(p PaymentProvider) {
	r.providers = append(r.providers, p)
}

func (r *ProviderRegistry) List() []PaymentProvider {
	return r.providers
}

func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}

// ByName — ошибка конфигурации, а не пользовательская: неизвестное имя
// провайдера означает баг деплоя.
func (r *ProviderRegistry) ByName(name string) (PaymentProvider, error) {
	for _, p := range r.providers {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderUnknown, name)
}

// InvoiceProvider — оплата по счёту: для старта checkout нужен платёжный
// адрес и email.
type InvoiceProvider struct{}

func (InvoiceProvider) Name() string { return "invoice" }

func (InvoiceProvider) CanCheckout(o *models.Order) []string {
	var errs []string
	if o.BillingAddressID == nil {
		errs = append(errs, "invoice: missing billing_address")
	}
	if o.Email == nil || *o.Email == "" {
		errs = append(errs, "invoice: missing email")
	}
	return errs
}

func (InvoiceProvider) CanOrder(o *models.Order) []string {
	var errs []string
	if o.BillingAddressID == nil {
		errs = append(errs, "invoice: missing billing_address")
	}
	return errs
}

// PrepaidProvider — предоплата: финализация только после отметки об оплате.
type PrepaidProvider struct{}

func (PrepaidProvider) Name() string { return "prepaid" }

func (PrepaidProvider) CanCheckout(o *models.Order) []string { return nil }

func (PrepaidProvider) CanOrder(o *models.Order) []string {
	if !o.StatePaid {
		return []string{"prepaid: order is not paid yet"}
	}
	return nil
}
