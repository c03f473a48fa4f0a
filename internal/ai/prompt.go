package ai

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the classification prompt from typed catalog lists.
// Keeping the template structured avoids free-form interpolation leaking
// into the JSON output contract.
func BuildPrompt(description string, categories []CategoryOption, priorities []PriorityOption) string {
	var catLines strings.Builder
	for _, c := range categories {
		desc := c.Description
		if desc == "" {
			desc = "N/A"
		}
		fmt.Fprintf(&catLines, "- ID: %d, Nome: %s, Descrição: %s\n", c.ID, c.Name, desc)
	}

	var priLines strings.Builder
	for _, p := range priorities {
		desc := p.Description
		if desc == "" {
			desc = "N/A"
		}
		fmt.Fprintf(&priLines, "- ID: %d, Nome: %s, Nível: %d, Descrição: %s\n", p.ID, p.Name, p.Level, desc)
	}

	return fmt.Sprintf(`Você é um assistente especializado em análise de chamados de suporte técnico para uma faculdade.

Analise a seguinte descrição de problema e classifique-a de acordo com as categorias e prioridades disponíveis:

**DESCRIÇÃO DO PROBLEMA:**
%s

**CATEGORIAS DISPONÍVEIS:**
%s
**PRIORIDADES DISPONÍVEIS:**
%s
**INSTRUÇÕES:**
1. Analise cuidadosamente a descrição do problema
2. Identifique a categoria mais apropriada baseada no conteúdo
3. Determine a prioridade baseada na urgência e impacto do problema
4. Sugira um título claro e conciso para o chamado
5. Forneça uma justificativa para suas escolhas
6. Indique seu nível de confiança (0.0 a 1.0) para categoria e prioridade

**FORMATO DE RESPOSTA (JSON):**
Responda APENAS com um JSON válido no seguinte formato:

{
  "categoriaId": [ID da categoria escolhida],
  "categoriaNome": "[Nome da categoria]",
  "prioridadeId": [ID da prioridade escolhida],
  "prioridadeNome": "[Nome da prioridade]",
  "tituloSugerido": "[Título sugerido para o chamado]",
  "justificativa": "[Explicação das escolhas feitas]",
  "confiancaCategoria": [valor entre 0.0 e 1.0],
  "confiancaPrioridade": [valor entre 0.0 e 1.0]
}

IMPORTANTE: Responda APENAS com o JSON, sem texto adicional antes ou depois.`,
		description, catLines.String(), priLines.String())
}
