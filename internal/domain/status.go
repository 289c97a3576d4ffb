package domain

// PhoneStatus is the display view of one phone
type PhoneStatus struct {
	Number int      `json:"number"`
	Peer   *PhoneID `json:"connected_to,omitempty"`
}

// SwitchboardStatus is the display view of one switchboard
type SwitchboardStatus struct {
	AreaCode int           `json:"area_code"`
	Trunks   []int         `json:"trunks"`
	Phones   []PhoneStatus `json:"phones"`
}

// Status builds the display view of the switchboard
func (s *Switchboard) Status() SwitchboardStatus {
	phones := s.Phones()
	st := SwitchboardStatus{
		AreaCode: s.areaCode,
		Trunks:   s.Trunks(),
		Phones:   make([]PhoneStatus, 0, len(phones)),
	}
	for _, p := range phones {
		ps := PhoneStatus{Number: p.Number}
		if peer, ok := p.Peer(); ok {
			ps.Peer = &peer
		}
		st.Phones = append(st.Phones, ps)
	}
	return st
}
