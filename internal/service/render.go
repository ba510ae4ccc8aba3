package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
)

// MaxListItems caps every list reply
const MaxListItems = 10

const (
	replyDuplicate   = "ℹ️ Esta mensagem já foi registrada anteriormente."
	replyIntakeError = "❌ Erro ao processar sua demanda. Tente novamente."
	digestSeparator  = "━━━━━━━━━━━━━━━━━━━━━━"
)

// RenderConfirmation formats the reply sent after a demand is stored
func RenderConfirmation(rec *domain.ParsedRecord) string {
	deadline := rec.DeadlineDisplay
	if deadline == "" {
		deadline = "—"
	}
	return fmt.Sprintf(`✅ **Radar Diário registrou sua demanda**

• **Resumo:** %s
• **Prazo:** %s
• **Prioridade:** %s
• **Status:** %s`, rec.Summary, deadline, rec.Priority, rec.Status)
}

// RenderHelp lists usage and commands
func RenderHelp(registry *parser.Registry) string {
	var tags []string
	for _, p := range registry.All() {
		tags = append(tags, "["+p.Name+"]")
	}

	var sb strings.Builder
	sb.WriteString("🤖 **Radar Diário**\n\n")
	sb.WriteString("Olá! Eu sou o bot que registra suas demandas automaticamente na planilha.\n\n")
	sb.WriteString("**Como usar:**\n")
	sb.WriteString("• Envie qualquer mensagem com suas demandas\n")
	sb.WriteString("• Use tags como #urgente, #alta, #baixa para prioridade\n")
	if len(tags) > 0 {
		sb.WriteString("• Use " + strings.Join(tags, ", ") + " para projetos\n")
	}
	sb.WriteString("• Mencione prazos: \"até 05/10\", \"amanhã\", \"primeira quinzena de outubro\"\n\n")
	sb.WriteString("**Comandos disponíveis:**\n")
	for _, c := range commandHelp {
		sb.WriteString(fmt.Sprintf("/%s - %s\n", c[0], c[1]))
	}
	sb.WriteString("\nVamos começar! 🚀")
	return sb.String()
}

var commandHelp = [][2]string{
	{cmdPending, "Lista tarefas abertas"},
	{cmdToday, "Vencimentos do dia"},
	{cmdNoDeadline, "Itens sem deadline"},
	{cmdWaiting, "Aguardando terceiros"},
	{cmdOverdue, "Prazos vencidos"},
	{cmdDigest, "Resumo imediato"},
	{cmdClients, "Lista clientes cadastrados"},
	{cmdHealth, "Status do sistema"},
	{cmdDebugLast, "Último erro"},
}

// RenderDemandList formats a numbered list with prazo, priority and status
func RenderDemandList(title, empty string, demands []domain.Demand) string {
	if len(demands) == 0 {
		return empty
	}
	demands = capList(demands)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d)\n\n", title, len(demands)))
	for i, d := range demands {
		rec := d.Record
		deadline := rec.DeadlineDisplay
		if deadline == "" {
			deadline = "—"
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec.Summary))
		sb.WriteString(fmt.Sprintf("   📅 %s | 🏷️ %s | 📊 %s\n", deadline, rec.Priority, rec.Status))
		if rec.Project != "" {
			sb.WriteString(fmt.Sprintf("   🏢 %s\n", rec.Project))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderDueToday formats the demands due today
func RenderDueToday(demands []domain.Demand, today time.Time) string {
	date := today.Format("02/01/2006")
	if len(demands) == 0 {
		return fmt.Sprintf("✅ Nenhuma tarefa vencendo hoje (%s)!", date)
	}
	demands = capList(demands)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓️ **Vencimentos de Hoje** (%s)\n\n", date))
	for i, d := range demands {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, withProject(d.Record)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderClients lists the project registry by category
func RenderClients(registry *parser.Registry) string {
	var sb strings.Builder
	sb.WriteString("🏢 **Clientes e Projetos Cadastrados**\n\n")
	for _, category := range registry.Categories() {
		sb.WriteString(fmt.Sprintf("📂 **%s**\n", category))
		for _, p := range registry.ListByCategory(category) {
			sb.WriteString(fmt.Sprintf("• [%s] - %s\n", p.Name, p.FullName))
			if p.Description != "" {
				sb.WriteString(fmt.Sprintf("  _%s_\n", p.Description))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("💡 **Como usar:**\n")
	sb.WriteString("Envie: \"Tarefa importante [Nome do Cliente] #urgente\"\n")
	sb.WriteString("Exemplo: \"Relatório mensal [UGF] #alta\"")
	return sb.String()
}

// RenderDigest formats the daily overview
func RenderDigest(d *usecase.Digest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📡 **Radar Diário — %s**\n\n", d.Date.Format(domain.ShortDateLayout)))
	sb.WriteString(fmt.Sprintf("🆕 **Novas demandas:** %d\n", d.NewToday))
	sb.WriteString(fmt.Sprintf("⏳ **Sem prazo:** %d\n", d.WithoutDeadline))
	sb.WriteString(fmt.Sprintf("📌 **Aguardando terceiros:** %d\n\n", d.Waiting))

	if len(d.Upcoming) == 0 {
		sb.WriteString("✔️ **Nenhum vencimento nos próximos 3 dias.**")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("📅 **Próximos vencimentos (até %d dias):**\n", usecase.UpcomingWindowDays))
	sb.WriteString(digestSeparator + "\n")
	for _, dm := range d.Upcoming {
		rec := dm.Record
		status := string(rec.Status)
		if status == "" {
			status = "Sem status"
		}
		sb.WriteString(fmt.Sprintf("🔸 %s | %s | %s\n", shortDate(rec), withProject(rec), status))
	}
	sb.WriteString(digestSeparator)
	return sb.String()
}

// RenderHealth formats the system status reply
func RenderHealth(now time.Time, timezone string, storeErr error) string {
	store := "✅ Conectada"
	footer := "✅ Sistema funcionando normalmente"
	if storeErr != nil {
		store = "❌ Erro"
		footer = "❌ " + storeErr.Error()
	}
	return fmt.Sprintf(`🏥 **Status do Sistema**

⏰ Hora local: %s
📊 Sheet: %s
🌍 Timezone: %s

%s`, now.Format("02/01/2006 15:04:05"), store, timezone, footer)
}

// RenderLastError formats the last recorded error with a config hint
func RenderLastError(f *Failure, loc *time.Location) string {
	if f == nil || f.Err == nil {
		return "✅ Nenhum erro registrado recentemente."
	}
	msg := fmt.Sprintf(`🐛 **Último Erro**

📝 Erro: %s
⏰ Timestamp: %s`, f.Err.Error(), f.At.In(loc).Format("02/01/2006 15:04:05"))
	if hint := errorHint(f.Err); hint != "" {
		msg += "\n\n" + hint
	}
	return msg
}

func errorHint(err error) string {
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "private key"):
		return "💡 Verifique se GOOGLE_PRIVATE_KEY está com quebras de linha corretas (\\n)"
	case strings.Contains(s, "permission"):
		return "💡 Verifique se o Service Account tem permissão na planilha"
	case strings.Contains(s, "chat_id"):
		return "💡 Verifique se OWNER_CHAT_ID está correto"
	}
	return ""
}

// withProject appends the project tag unless the summary already ends with it
func withProject(rec domain.ParsedRecord) string {
	summary := rec.Summary
	if summary == "" {
		summary = "Sem resumo"
	}
	if rec.Project == "" {
		return summary
	}
	tag := "[" + rec.Project + "]"
	if strings.HasSuffix(summary, tag) {
		return summary
	}
	return summary + " " + tag
}

// shortDate renders a deadline as DD-MM
func shortDate(rec domain.ParsedRecord) string {
	if t, ok := rec.DeadlineDate(time.UTC); ok {
		return t.Format(domain.ShortDateLayout)
	}
	if rec.DeadlineDisplay != "" {
		return rec.DeadlineDisplay
	}
	return "—"
}

func capList(demands []domain.Demand) []domain.Demand {
	if len(demands) > MaxListItems {
		return demands[:MaxListItems]
	}
	return demands
}
