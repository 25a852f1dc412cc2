package model

// CommitOutcome is the server's answer to a save request.
type CommitOutcome struct {
	Result  *SaveResult `json:"resultado,omitempty"`
	Message string      `json:"mensagem,omitempty"`
	Error   string      `json:"erro,omitempty"`
	Success bool        `json:"sucesso"`
}

// SaveResult carries the identifiers of the records written by a commit.
// The server reports a failed database write here even when the outer
// response claims success.
type SaveResult struct {
	Success    *bool  `json:"sucesso,omitempty"`
	Error      string `json:"erro,omitempty"`
	MovementID int64  `json:"movimento_id,omitempty"`
	IssuerID   int64  `json:"emitente_id,omitempty"`
	SenderID   int64  `json:"remetente_id,omitempty"`
}

// Failed reports whether the nested save result signals a failure.
func (s *SaveResult) Failed() bool {
	return s != nil && s.Success != nil && !*s.Success
}
