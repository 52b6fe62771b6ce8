package render

const defaultSearch = `<form class="crudgrid-search" method="post" action="?search">
{% for f in fields %}<div class="field{% if f.errors %} has-error{% endif %}">
<label for="{{ f.id }}">{{ f.label }}</label>
{% if f.widget == "select" %}<select id="{{ f.id }}" name="{{ f.name }}"{% if f.multiple %} multiple{% endif %}>{% if not f.multiple %}<option value=""></option>{% endif %}{% for o in f.options %}<option value="{{ o.value }}"{% if o.selected %} selected{% endif %}>{{ o.label }}</option>{% endfor %}</select>
{% elif f.widget == "checkbox" %}<input type="checkbox" id="{{ f.id }}" name="{{ f.name }}" value="1"{% for a in f.attrs %} {{ a.key }}="{{ a.value }}"{% endfor %}>
{% else %}<input type="{{ f.input }}" id="{{ f.id }}" name="{{ f.name }}" value="{{ f.value }}"{% if f.required %} required{% endif %}{% for a in f.attrs %} {{ a.key }}="{{ a.value }}"{% endfor %}>{% endif %}
{% for e in f.errors %}<span class="error">{{ e }}</span>{% endfor %}
</div>
{% endfor %}<button type="submit">Search</button> <a href="?reset">Reset</a>
</form>`

const defaultList = `<div class="crudgrid-list" id="{{ grid }}-list">
{% if has_results %}<table>
<thead><tr>{% for c in columns %}<th>{% if c.sortable %}<a href="?sort={{ c.id }}&amp;sort-direction={{ c.next }}"{% if c.sorted %} class="sorted-{{ c.direction|lower }}"{% endif %}>{{ c.label }}</a>{% else %}{{ c.label }}{% endif %}</th>{% endfor %}</tr></thead>
<tbody>{% for row in rows %}<tr>{% for cell in row %}<td>{{ cell }}</td>{% endfor %}</tr>{% empty %}<tr><td colspan="{{ columns|length }}">No results</td></tr>{% endfor %}</tbody>
</table>
{% if page_info %}<nav class="pagination">{% if page_info.has_previous %}<a href="?page={{ page_info.previous_page }}">Previous</a> {% endif %}<span>Page {{ page }}{% if page_info.page_count %} of {{ page_info.page_count }}{% endif %}</span>{% if page_info.has_next %} <a href="?page={{ page_info.next_page }}">Next</a>{% endif %}</nav>{% endif %}
{% endif %}<form class="crudgrid-display" method="post" action="?display-settings">
{% if settings_invalid %}<span class="error">Invalid display settings.</span>
{% endif %}<select name="{{ display_form }}[pageSize]">{% for s in page_sizes %}<option value="{{ s }}"{% if s == page_size %} selected{% endif %}>{{ s }}</option>{% endfor %}</select>
{% for c in available %}<label><input type="checkbox" name="{{ display_form }}[columns][]" value="{{ c.id }}"{% if c.displayed %} checked{% endif %}> {{ c.label }}</label>
{% endfor %}<button type="submit">Apply</button> <a href="?resetsettings">Reset settings</a>
</form>
</div>`

const defaultPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{ grid }}</title></head>
<body>
<div class="crudgrid" id="{{ grid }}">
<div class="crudgrid-search-panel">{{ search_html }}</div>
{{ list_html }}
</div>
</body>
</html>`
