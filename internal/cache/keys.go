package cache

// Wahl keys
func KeyWahl(wahlID string) string {
	return Key("wahlen", wahlID)
}

func KeyWahlShortname(shortname string) string {
	return Key("wahlen", "shortname", shortname)
}
