package i18n

// T translates with the global localizer, returning key before Init
func T(key string, data ...map[string]interface{}) string {
	if Global == nil {
		return key
	}
	return Global.T(key, data...)
}

// Tc translates with count using the global localizer
func Tc(key string, count int, data ...map[string]interface{}) string {
	if Global == nil {
		return key
	}
	return Global.Tc(key, count, data...)
}
