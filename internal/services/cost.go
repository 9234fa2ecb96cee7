package services

import "fmt"

// PricePerPerson splits the total event cost across capacity, rounding up.
// It fails when capacity is not positive instead of dividing by zero.
func PricePerPerson(courtCost, shuttleCost, otherCost, capacity int) (int, error) {
	if capacity <= 0 {
		return 0, fmt.Errorf("price per person: capacity must be positive, got %d", capacity)
	}
	total := courtCost + shuttleCost + otherCost
	return (total + capacity - 1) / capacity, nil
}
