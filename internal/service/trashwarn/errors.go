package trashwarn

import "errors"

var (
	// ErrTrashEmpty возвращается, когда корзина пуста
	ErrTrashEmpty = errors.New("service.trashwarn: trash is empty")

	// ErrNoExpiringItems возвращается, когда ни один элемент не истекает
	// в пределах окна предупреждения
	ErrNoExpiringItems = errors.New("service.trashwarn: no items expiring within warning window")

	// ErrFetchItems возвращается при ошибке чтения элементов корзины
	ErrFetchItems = errors.New("service.trashwarn: failed to fetch trash items")
)
