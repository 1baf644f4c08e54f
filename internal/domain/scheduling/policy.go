package scheduling

// ProviderPolicy é input externo do lifecycle: lido da configuração do
// barbeiro, nunca decidido pelo núcleo.
type ProviderPolicy struct {
	AutoConfirm               bool `json:"auto_confirm"`
	CancellationCutoffMinutes int  `json:"cancellation_cutoff_minutes"`
}
