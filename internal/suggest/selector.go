package suggest

// useStub decides whether the deterministic generator should serve a request.
// Forcing the stub wins over everything; without an API key there is nothing
// to call.
func useStub(settings Settings) bool {
	if settings.ForceStub {
		return true
	}
	return settings.APIKey == ""
}
