package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleIDList - гибкий тип списка идентификаторов, поддерживающий
// одиночную строку и массив строк
type FlexibleIDList []string

// UnmarshalJSON поддерживает парсинг списка из строки и массива
func (fl *FlexibleIDList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*fl = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("invalid id list: %w", err)
		}
		*fl = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("invalid id value: %w", err)
	}
	*fl = []string{single}
	return nil
}

// FlexibleInt - гибкий целочисленный тип, поддерживающий числа и строки
type FlexibleInt int

// UnmarshalJSON поддерживает парсинг числа из строки и числа
func (fi *FlexibleInt) UnmarshalJSON(data []byte) error {
	str := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if str == "null" || str == "" {
		*fi = 0
		return nil
	}

	n, err := strconv.Atoi(str)
	if err != nil {
		return fmt.Errorf("invalid integer value: %s", str)
	}
	*fi = FlexibleInt(n)
	return nil
}

// Int возвращает int значение
func (fi FlexibleInt) Int() int {
	return int(fi)
}

// EquipmentLineRequest - запрашиваемая позиция инвентаря
type EquipmentLineRequest struct {
	EquipmentID string      `json:"equipmentId"`
	Quantity    FlexibleInt `json:"quantity"`
}

// CreateBookingRequest - модель для создания бронирования. Поле со
// списком зданий исторически приходит под разными именами.
type CreateBookingRequest struct {
	UserID       string                 `json:"userId"`
	StadiumID    string                 `json:"stadiumId"`
	BuildingIDs  FlexibleIDList         `json:"buildingIds"`
	BuildingID   FlexibleIDList         `json:"buildingId"`
	Buildings    FlexibleIDList         `json:"buildings"`
	ActivityName string                 `json:"activityName"`
	StartDate    string                 `json:"startDate"`
	EndDate      string                 `json:"endDate"`
	StartTime    string                 `json:"startTime"`
	EndTime      string                 `json:"endTime"`
	Equipment    []EquipmentLineRequest `json:"equipment"`
}

// CancelBookingRequest - модель для отмены бронирования
type CancelBookingRequest struct {
	CancelReason string `json:"cancelReason"`
}

// DayStatus - статус одного календарного дня
type DayStatus struct {
	Day    int    `json:"day"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// AvailableDatesResponse - помесячный календарь занятости стадиона
type AvailableDatesResponse struct {
	StadiumID string      `json:"stadium_id"`
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	Days      []DayStatus `json:"days"`
}

// CreateStadiumRequest - модель для создания стадиона
type CreateStadiumRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Contact     *string `json:"contact"`
	ImageURL    *string `json:"imageUrl"`
}

// CreateBuildingRequest - модель для создания здания
type CreateBuildingRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateEquipmentRequest - модель для создания инвентаря
type CreateEquipmentRequest struct {
	Name     string      `json:"name" binding:"required"`
	Quantity FlexibleInt `json:"quantity"`
	ImageURL *string     `json:"imageUrl"`
}
