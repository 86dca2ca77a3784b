package errortypes

// BadConfig should be used when the server-side ad configuration is unusable: missing keys,
// malformed values, a network disabled by the host.
//
// BadConfig maps to AdapterConfigurationError. Adapters convert their own guard failures into
// this type instead of panicking.
type BadConfig struct {
	Message string
}

func (err *BadConfig) Error() string {
	return err.Message
}

func (err *BadConfig) Code() ErrorCode {
	return AdapterConfigurationError
}

func (err *BadConfig) Severity() Severity {
	return SeverityFatal
}

// NoFill flags that the network answered the request but had no ad to serve.
type NoFill struct {
	Message string
}

func (err *NoFill) Error() string {
	return err.Message
}

func (err *NoFill) Code() ErrorCode {
	return NetworkNoFill
}

func (err *NoFill) Severity() Severity {
	return SeverityFatal
}

// Timeout should be used when the network SDK did not answer in time, either for initialization
// or for an ad request.
type Timeout struct {
	Message string
}

func (err *Timeout) Error() string {
	return err.Message
}

func (err *Timeout) Code() ErrorCode {
	return NetworkTimeout
}

func (err *Timeout) Severity() Severity {
	return SeverityFatal
}

// InvalidState is returned when an operation is not allowed in the adapter's current lifecycle
// state (for example Show before the ad finished loading), or when the network SDK is not initialized.
type InvalidState struct {
	Message string
}

func (err *InvalidState) Error() string {
	return err.Message
}

func (err *InvalidState) Code() ErrorCode {
	return NetworkInvalidState
}

func (err *InvalidState) Severity() Severity {
	return SeverityFatal
}

// NetworkFailure carries any vendor failure already translated to a mediator code.
type NetworkFailure struct {
	Message   string
	ErrorCode ErrorCode
}

func (err *NetworkFailure) Error() string {
	return err.Message
}

func (err *NetworkFailure) Code() ErrorCode {
	if err.ErrorCode == Unspecified {
		return NetworkError
	}
	return err.ErrorCode
}

func (err *NetworkFailure) Severity() Severity {
	return SeverityFatal
}

// ShowFailure is used when a loaded ad could not be presented.
type ShowFailure struct {
	Message string
}

func (err *ShowFailure) Error() string {
	return err.Message
}

func (err *ShowFailure) Code() ErrorCode {
	return AdShowError
}

func (err *ShowFailure) Severity() Severity {
	return SeverityFatal
}

// Internal flags a bug in an adapter rather than a network or configuration problem.
type Internal struct {
	Message string
}

func (err *Internal) Error() string {
	return err.Message
}

func (err *Internal) Code() ErrorCode {
	return InternalError
}

func (err *Internal) Severity() Severity {
	return SeverityFatal
}

// Warning is a generic non-fatal error.
type Warning struct {
	Message     string
	WarningCode ErrorCode
}

func (err *Warning) Error() string {
	return err.Message
}

func (err *Warning) Code() ErrorCode {
	return err.WarningCode
}

func (err *Warning) Severity() Severity {
	return SeverityWarning
}
