package handlers

const (
	ErrInvalidJSON         = "Requisição inválida"
	ErrUnauthorized        = "Usuário não autenticado"
	ErrInternalServerError = "Erro interno do servidor"
	ErrTooManyRequests     = "Muitas requisições, tente novamente em instantes"

	MsgInvalidQuality      = "Quality deve ser um número entre 0 e 5"
	MsgInvalidConfidence   = "Nível de confiança deve ser um número entre 1 e 5"
	MsgReviewNotFound      = "Revisão não encontrada"
	MsgInteractionRequired = "Finalize a interação (mostrar resposta ou responder o quiz) antes de concluir."
	MsgReviewDone          = "Revisão já concluída"
	MsgInvalidCredentials  = "Email ou senha inválidos"
	MsgEmailTaken          = "Email já cadastrado"
	MsgPasswordMismatch    = "As senhas não coincidem"

	maxBodyBytes = 1 << 20
)
