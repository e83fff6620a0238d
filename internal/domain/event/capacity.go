package event

// MaxGuestsPerBooking は1回の予約で選べる人数の上限
const MaxGuestsPerBooking = 10

// BookedSeats は予約済みの人数の合計を返す
func (e *Event) BookedSeats() int {
	if e == nil {
		return 0
	}
	total := 0
	for _, b := range e.Bookings {
		total += b.Guests
	}
	return total
}

// AvailableSeats は残席数を返す。競合による過剰予約では負になりうる
func (e *Event) AvailableSeats() int {
	if e == nil {
		return 0
	}
	return e.Capacity - e.BookedSeats()
}

// IsFull は満席かを返す
func (e *Event) IsFull() bool {
	return e.AvailableSeats() <= 0
}

// GuestOptions は予約フォームで選択できる人数（1..n）を返す。満席なら空
func (e *Event) GuestOptions() []int {
	n := e.AvailableSeats()
	if n > MaxGuestsPerBooking {
		n = MaxGuestsPerBooking
	}
	if n <= 0 {
		return []int{}
	}
	options := make([]int, n)
	for i := range options {
		options[i] = i + 1
	}
	return options
}
